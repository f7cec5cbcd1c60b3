// Command namedisambig parses raw author and recipient names from document
// metadata, resolves them to canonical person records and inspects the
// resulting store.
//
// Commands:
//
//	parse NAME...          show how names split into first/middle/last and positions
//	orgs list|check NAME   inspect the organization table
//	ingest FILE.csv        resolve every name in a document index
//	people list|show|resolve
//	config init|validate
package main
