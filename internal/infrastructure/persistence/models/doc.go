// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities so the domain layer stays free of
// ORM concerns. Each model converts to and from its entity with ToDomain and FromDomain.
package models
