package models

// EventField names a field of the event metadata record that a variable
// may read.
type EventField string

const (
	EventFieldName        EventField = "name"
	EventFieldCompanyName EventField = "companyName"
	EventFieldProjectName EventField = "projectName"
	EventFieldDate        EventField = "date"
	EventFieldLocation    EventField = "location"
)

// EventFields returns the fixed set of readable event fields.
func EventFields() []EventField {
	return []EventField{
		EventFieldName,
		EventFieldCompanyName,
		EventFieldProjectName,
		EventFieldDate,
		EventFieldLocation,
	}
}

// IsValid reports whether f is one of EventFields.
func (f EventField) IsValid() bool {
	switch f {
	case EventFieldName, EventFieldCompanyName, EventFieldProjectName, EventFieldDate, EventFieldLocation:
		return true
	}
	return false
}

// EventMeta is the event record supplied by the event repository.
type EventMeta struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	CompanyName string `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	ProjectName string `json:"projectName,omitempty" yaml:"projectName,omitempty"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Lookup returns the value of field f and whether it is set.
func (m EventMeta) Lookup(f EventField) (string, bool) {
	var v string
	switch f {
	case EventFieldName:
		v = m.Name
	case EventFieldCompanyName:
		v = m.CompanyName
	case EventFieldProjectName:
		v = m.ProjectName
	case EventFieldDate:
		v = m.Date
	case EventFieldLocation:
		v = m.Location
	}
	return v, v != ""
}
