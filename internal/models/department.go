package models

// Department is an organisational unit; teachers reference it by ID.
type Department struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Head  string `json:"head,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// SelectOption is one entry of a select control. An empty Value is the
// "nothing selected" sentinel.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
