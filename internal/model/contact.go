package model

import (
	"fmt"
	"regexp"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^(\+7|8|7)?[\s\-]?\(?[489][0-9]{2}\)?[\s\-]?[0-9]{3}[\s\-]?[0-9]{2}[\s\-]?[0-9]{2}$`)
)

// ContactInfo holds a person's contact details. Email and phone are
// validated once, at construction time; a ContactInfo that exists is valid.
type ContactInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func NewContactInfo(name, email, phone, address string) (ContactInfo, error) {
	if !ValidEmail(email) {
		return ContactInfo{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if !ValidPhone(phone) {
		return ContactInfo{}, fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return ContactInfo{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
	}, nil
}

func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}
