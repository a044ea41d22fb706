// Package models defines the core domain models for roomledger.
//
// # Models
//
//   - Member: a person who can own expenses and make payments
//   - User: an account that acts on the ledger, carrying a Role
//   - Expense: the mutable ledger record for one shared cost
//   - PaymentHistory: one immutable settlement event against an Expense
//
// # Invariants
//
// For every Expense, ClearedAmount + RemainingAmount == Amount and
// 0 <= ClearedAmount <= Amount. The sum of an expense's PaymentHistory
// amounts always equals its ClearedAmount, and the LastCleared* fields
// mirror the newest PaymentHistory row.
//
// Relationships are held as ID strings rather than pointers.
package models
