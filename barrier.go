package harness

import "sync"

// rendezvous is a single-use start gate: every participant calls
// arrive once it is ready to begin work, then wait; none of them
// proceeds past wait until all of them have arrived. This lines up
// the moment a stress run's duration clock starts, or a verify run's
// shutdown-ordering begins, with every writer, reader and the fault
// injector actually being ready, rather than with however long each
// one took to spin up.
type rendezvous struct {
	wg   sync.WaitGroup
	gate chan struct{}
}

// newRendezvous returns a barrier for n participants.
func newRendezvous(n int) *rendezvous {
	r := &rendezvous{gate: make(chan struct{})}
	r.wg.Add(n)
	go func() {
		r.wg.Wait()
		close(r.gate)
	}()
	return r
}

func (r *rendezvous) arrive() {
	r.wg.Done()
}

func (r *rendezvous) wait() {
	<-r.gate
}
