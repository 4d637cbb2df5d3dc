package domain

// Document is the whole persisted state: two ordered collections.
type Document struct {
	Resources []*Resource `json:"resources"`
	Jobs      []*Job      `json:"jobs"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	return &Document{
		Resources: []*Resource{},
		Jobs:      []*Job{},
	}
}

// Normalize replaces nil collections and drops nil entries left by
// hand-edited or partially valid documents.
func (d *Document) Normalize() {
	resources := make([]*Resource, 0, len(d.Resources))
	for _, r := range d.Resources {
		if r != nil {
			resources = append(resources, r)
		}
	}
	jobs := make([]*Job, 0, len(d.Jobs))
	for _, j := range d.Jobs {
		if j != nil {
			jobs = append(jobs, j)
		}
	}
	d.Resources = resources
	d.Jobs = jobs
}
