// Package models defines the core domain models for Tripfolio.
//
// # Models
//
//   - User: a registered account, identified by a unique email
//   - Trip: a collaborative container for members and expenses
//   - Membership: the (user, trip, role) relation governing per-trip permissions
//   - Expense: a monetary outlay inside a trip, paid by one member
//   - ExpenseSplit: one participant's owed share of an expense
//
// # Design Principles
//
//  1. **Amounts are decimals**: money is shopspring/decimal at 2 fractional
//     digits, never float64. Split arithmetic lives in package splitter.
//  2. **Roles are data, not behavior**: Role is an ordered enum; the
//     permission check is the pure function Role.Allows.
//  3. **Avoid circular references**: models hold ID strings, not pointers,
//     for relationships.
//
// A trip must keep at least one OWNER membership at all times; the storage
// layer enforces this inside the same transaction as any role change or
// removal.
package models
