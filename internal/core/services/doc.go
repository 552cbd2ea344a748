// Package services implements the driving ports: the ingestion,
// indexing, retrieval and watch operations that the CLI drives.
//
// Services depend only on domain types and driven ports; adapters are
// injected at construction.
package services
