// Package main provides the entry point of tinadmin, a multi-tenant permission service.
// It resolves each user's permissions from their role and the features of the tenant
// they operate in, enforces them through a permission gate served over a fiber JSON API
// and records every decision in an append-only audit log kept with gorm.
package main
