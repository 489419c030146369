package internal

import "sync"

// DoneChan is closed once to signal that some background activity has
// finished. It carries no value; only closure is observable.
type DoneChan chan struct{}

type DoneFunc func() DoneChan

func wrapWaitGroup(wg *sync.WaitGroup) DoneChan {
	ret := make(DoneChan)
	go func() {
		wg.Wait()
		close(ret)
	}()
	return ret
}

// Combine returns a DoneChan that closes once every channel in chans has
// closed.
func Combine(chans ...DoneChan) DoneChan {
	ret := make(DoneChan)
	go func() {
		for _, c := range chans {
			<-c
		}
		close(ret)
	}()
	return ret
}
