package models

import "strings"

type Links struct {
	LinkedIn string `yaml:"linkedin" json:"linkedin,omitempty"`
	Website  string `yaml:"website" json:"website,omitempty"`
	GitHub   string `yaml:"github" json:"github,omitempty"`
	Twitter  string `yaml:"twitter" json:"twitter,omitempty"`
}

type Education struct {
	University string `yaml:"university" json:"university"`
	GradMonth  string `yaml:"grad_month" json:"grad_month"`
	GradYear   string `yaml:"grad_year" json:"grad_year"`
}

// Applicant holds everything the form tables may type into an application.
type Applicant struct {
	FirstName  string    `yaml:"first_name" json:"first_name"`
	LastName   string    `yaml:"last_name" json:"last_name"`
	Email      string    `yaml:"email" json:"email"`
	Phone      string    `yaml:"phone" json:"phone"`
	ZipCode    string    `yaml:"zip_code" json:"zip_code"`
	Country    string    `yaml:"country" json:"country"`
	Location   string    `yaml:"location" json:"location"`
	Org        string    `yaml:"org" json:"org"`
	ResumePath string    `yaml:"resume" json:"resume"`
	Links      Links     `yaml:"links" json:"links"`
	Education  Education `yaml:"education" json:"education"`
}

func (a Applicant) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
