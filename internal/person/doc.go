// Package person defines the accumulated person record: fixed name fields
// plus weighted multisets of positions and aliases that grow as more raw
// mentions are resolved to the same person.
package person
