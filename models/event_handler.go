package models

type EventHandler interface {
	AfterAlertLogged(event *Event)
	AfterLogRotated(rotatedPath string)
}

type EmptyEventHandler struct{}

func (h *EmptyEventHandler) AfterAlertLogged(_ *Event) {
}

func (h *EmptyEventHandler) AfterLogRotated(_ string) {
}

var DefaultEventHandler EventHandler = &EmptyEventHandler{}
