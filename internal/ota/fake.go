package ota

// FakeSource returns one batch of events per Poll.
type FakeSource struct {
	Batches [][]Event
	Polls   int
}

// Poll returns the next batch, or nil once exhausted.
func (f *FakeSource) Poll() []Event {
	f.Polls++
	if len(f.Batches) == 0 {
		return nil
	}
	b := f.Batches[0]
	f.Batches = f.Batches[1:]
	return b
}
