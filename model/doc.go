// Package model defines the Member and Team entities, their table
// descriptors for the query DSL, search conditions, and result projections.
package model
