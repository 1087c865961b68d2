package http

// Events receives lifecycle notifications after a request succeeded.
type Events interface {
	ApplicationSubmitted()
	StatusUpdated(status string)
}

type nopEvents struct{}

func (nopEvents) ApplicationSubmitted()  {}
func (nopEvents) StatusUpdated(_ string) {}

func orNop(e Events) Events {
	if e == nil {
		return nopEvents{}
	}
	return e
}
