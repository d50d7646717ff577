package models

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	IsOnline bool   `json:"is_online"`
}

func (v User) AsSender() Sender {
	return Sender{ID: v.ID, Name: v.Name, Avatar: v.Avatar}
}

type Sender struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
