// Package model defines shared data types used across the auction service.
//
// Conventions:
//   - Money: shopspring decimal.Decimal, never floats
//   - Session handles: uuid.UUID (zero value means "no session")
//   - Item IDs: int64, assigned monotonically by the registry, never reused
package model
