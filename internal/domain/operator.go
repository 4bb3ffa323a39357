package domain

import "time"

// OperatorRole enumerates ops console roles.
type OperatorRole string

const (
	OperatorRoleAdmin OperatorRole = "ADMIN"
	OperatorRoleAgent OperatorRole = "AGENT"
)

// Operator is a human user of the operations API.
type Operator struct {
	ID           string
	Name         string
	PasswordHash string
	Role         OperatorRole
	CreatedAt    time.Time
}
