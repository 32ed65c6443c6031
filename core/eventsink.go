package core

// HostSink receives notifications meant for the embedding application.
type HostSink interface {
	Started()
	Completed()
	SetWindowCaption(text string)
	ShowError(text string)
	Destroyed()
}

type nopHost struct{}

func (nopHost) Started()                {}
func (nopHost) Completed()              {}
func (nopHost) SetWindowCaption(string) {}
func (nopHost) ShowError(string)        {}
func (nopHost) Destroyed()              {}
