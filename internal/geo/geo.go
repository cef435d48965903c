package geo

import "errors"

var ErrNotFound = errors.New("reference not found")

type Country struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type State struct {
	ID        int    `json:"id"`
	CountryID int    `json:"countryId"`
	Name      string `json:"name"`
}

type City struct {
	ID      int    `json:"id"`
	StateID int    `json:"stateId"`
	Name    string `json:"name"`
}
