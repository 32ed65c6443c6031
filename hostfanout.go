package termpart

import (
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/termpart/core"
)

// HostSink receives notifications for the embedding host.
type HostSink = core.HostSink

type hostFanout struct {
	sinks []HostSink
}

func (f hostFanout) Started() {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.Started()
	}
}

func (f hostFanout) Completed() {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.Completed()
	}
}

func (f hostFanout) SetWindowCaption(text string) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.SetWindowCaption(text)
	}
}

func (f hostFanout) ShowError(text string) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.ShowError(text)
	}
}

func (f hostFanout) Destroyed() {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.Destroyed()
	}
}

// logHost records host notifications and remembers the caption.
type logHost struct {
	log pslog.Logger

	mu      sync.Mutex
	caption string
}

func (h *logHost) Started() { h.log.Debug("host started") }

func (h *logHost) Completed() { h.log.Debug("host completed") }

func (h *logHost) SetWindowCaption(text string) {
	h.mu.Lock()
	h.caption = text
	h.mu.Unlock()
	h.log.Debug("host caption", "caption", text)
}

func (h *logHost) ShowError(text string) { h.log.Warn("host error", "err", text) }

func (h *logHost) Destroyed() { h.log.Info("part destroyed") }

func (h *logHost) Caption() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.caption
}
