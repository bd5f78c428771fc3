package models

type Premises struct {
	ID      int    `json:"id"`
	Code    string `json:"code"`
	Address string `json:"address"`
	Place   *Place `json:"place"`
}

type Place struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
