// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no ORM tags; each model converts to and from its
// domain type with ToDomain and a FromDomain constructor.
//
// JSON columns (order payloads, acknowledgements, embeddings) use GORM's json
// serializer so the same models run against PostgreSQL and the SQLite
// database used in repository tests.
package models
