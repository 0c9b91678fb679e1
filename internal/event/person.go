package event

import "errors"

// ErrEmptyEmail indicates that a person has no email address
var ErrEmptyEmail = errors.New("person email must not be empty")

// Person is an organizer or attendee of an event.
type Person struct {
	Email string
	// Name is optional; empty means unknown.
	Name string
	// Image is an opaque avatar payload, optional.
	Image []byte
}

// NewPerson builds a Person, failing with ErrEmptyEmail when email is empty.
func NewPerson(email, name string) (Person, error) {
	p := Person{Email: email, Name: name}
	if err := p.Validate(); err != nil {
		return Person{}, err
	}
	return p, nil
}

// Validate checks the Person invariants.
func (p Person) Validate() error {
	if p.Email == "" {
		return ErrEmptyEmail
	}
	return nil
}

// DisplayName returns the name when known, otherwise the email.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
