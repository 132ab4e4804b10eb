// Package models defines the core domain models for Oremus.
//
// # Models
//
//   - PrayerGroup: a named collection of members who share prayer requests
//   - PrayerRequest: an item of type prayer, fast or nightPrayer created within a group
//   - User: the identity held by a client session (never stored server-side)
//
// # Design Principles
//
// 1. **Ids as references**: requests point at groups and users by ID string,
// never by pointer. GroupID is not enforced as a foreign key.
// 2. **Immutable history**: CreatedAt and Type never change after creation.
// 3. **Copies at the boundary**: storage implementations hand out copies
// (see Clone) so callers never hold live references into a store.
//
// # Lifecycle
//
// Groups are created and never updated or deleted. MemberCount starts at 1
// and no join or leave flow exists. Prayer requests are created, then only
// PrayedToday (via toggle) and ReminderTime change.
package models
