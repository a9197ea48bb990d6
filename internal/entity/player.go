package entity

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Secret string `json:"-"`
	Ready  bool   `json:"ready,omitempty"`
}
