package model

import "github.com/google/uuid"

// Person is a record of the Personen resource.
type Person struct {
	ID       uuid.UUID `json:"id"`
	Vorname  string    `json:"vorname"`
	Nachname string    `json:"nachname"`
	Aktiv    bool      `json:"aktiv"`
}

// PersonKey is the store key function for persons.
func PersonKey(p Person) uuid.UUID { return p.ID }

// FullName joins first and last name.
func (p Person) FullName() string {
	switch {
	case p.Vorname == "":
		return p.Nachname
	case p.Nachname == "":
		return p.Vorname
	}
	return p.Vorname + " " + p.Nachname
}

// ClonePersons returns a copy of persons that shares no memory with the input.
func ClonePersons(persons []Person) []Person {
	if persons == nil {
		return []Person{}
	}
	out := make([]Person, len(persons))
	copy(out, persons)
	return out
}
