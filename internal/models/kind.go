package models

// Kind names an entity collection.
type Kind string

// Entity kinds.
const (
	KindIdea     Kind = "idea"
	KindPipeline Kind = "pipeline"
	KindRepeated Kind = "repeated"
	KindOffice   Kind = "office"
	KindRegular  Kind = "regular"
)

// Entity is implemented by every persisted model.
type Entity interface {
	EntityID() string
	OwnerID() string
}

func (i Idea) EntityID() string         { return i.ID }
func (i Idea) OwnerID() string          { return i.UserID }
func (p Pipeline) EntityID() string     { return p.ID }
func (p Pipeline) OwnerID() string      { return p.UserID }
func (t RepeatedTask) EntityID() string { return t.ID }
func (t RepeatedTask) OwnerID() string  { return t.UserID }
func (t OfficeTask) EntityID() string   { return t.ID }
func (t OfficeTask) OwnerID() string    { return t.UserID }
func (t RegularTask) EntityID() string  { return t.ID }
func (t RegularTask) OwnerID() string   { return t.UserID }
