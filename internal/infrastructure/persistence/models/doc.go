// Package models contains the GORM persistence models for the CRM tables.
// Domain types carry no ORM tags; every model converts to and from its
// aggregate with ToDomain and FromDomain.
//
// Files:
//   - base.go: id, timestamps, version and tenant columns shared by all tables
//   - identity.go: tenants
//   - crm.go: leads, accounts, contacts, opportunities, notes, activity logs
package models
