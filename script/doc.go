// Package script defines the stateful representation of one writer's
// scripted operations within the test harness.
//
// An Operation augments a Mutation with its Verification: the CONSTRUCT
// queries and expected canonical states the writer polls for after
// issuing the mutation. Unlike a message in a queue, an Operation is
// read once at construction and never mutated; writers replay an
// OperationScript strictly in order.
//
// Operation values are typically loaded by Load from a directory of
// op_<i>.json files and passed to a writer worker for replay. They are
// not intended to be constructed by hand outside of tests.
package script
