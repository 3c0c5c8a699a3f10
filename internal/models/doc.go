// Package models defines the core domain models for Republica.
//
// # Entities
//
//   - User: a registered resident, optionally linked to one Household
//   - Household: a shared-living group with exactly one admin
//   - Bill: an expense owned by a household, created by its responsible user
//   - BillShare: one participant's portion of a bill, with its own payment status
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers, so models stay free of cycles.
//  2. Money is decimal.Decimal with two places; the store keeps integer cents.
//  3. Every status is an enumerated string type with a documented default.
package models
