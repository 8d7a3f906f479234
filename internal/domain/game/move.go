package game

// @name Move
type Move struct {
	Color       string `json:"color"`
	Coordinates string `json:"coordinates"`
}
