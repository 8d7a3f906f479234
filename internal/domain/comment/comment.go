package comment

import "time"

// Comment is an externally sourced remark attached to a node by its path.
type Comment struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	TaskNumber int       `json:"task_number" bson:"task_number"`
	Author     string    `json:"author" bson:"author"`
	Entered    time.Time `json:"entered" bson:"entered"`
	Text       string    `json:"text" bson:"text"`
	Path       string    `json:"path" bson:"path"`
	Genre      string    `json:"genre,omitempty" bson:"genre,omitempty"`
	Strength   string    `json:"strength,omitempty" bson:"strength,omitempty"`
	Alive      bool      `json:"alive" bson:"alive"`
}

// comment genres
const (
	GenreComment  = "comment"
	GenreQuestion = "question"
	GenreCorrect  = "correct"
	GenreWrong    = "wrong"
)

// Valid reports whether the fields needed to count the comment are present.
func (c Comment) Valid() bool {
	return c.Author != "" && !c.Entered.IsZero() && c.Text != ""
}

type CreateRequest struct {
	Author   string `json:"author"`
	Text     string `json:"text"`
	Path     string `json:"path"`
	Genre    string `json:"genre,omitempty"`
	Strength string `json:"strength,omitempty"`
}

type CountsResponse struct {
	Comments []Comment     `json:"comments"`
	Counts   map[string]int `json:"counts"`
}
