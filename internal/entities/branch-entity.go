package entities

import "github.com/aarondl/null/v8"

type Branch struct {
	ID         uint64
	Name       string
	ClientID   null.Uint64
	ClientName null.String
}
