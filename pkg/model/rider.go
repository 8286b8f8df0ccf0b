package model

type Team struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Rider struct {
	ID          int    `json:"id"`
	TeamID      int    `json:"teamId"`
	Name        string `json:"name"`
	YearOfBirth int    `json:"yearOfBirth"`
}
