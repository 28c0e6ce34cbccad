package models

// Entity is a record with a server-assigned positive integer id.
type Entity interface {
	GetID() int
}
