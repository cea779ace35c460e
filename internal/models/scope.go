package models

// Scope is the organization/plant partition a request operates in. It is
// passed explicitly into every store operation; zero fields are not filtered.
type Scope struct {
	OrganizationID uint
	PlantID        uint
}
