package main

// Resource adapters register themselves on import.
import (
	_ "github.com/incus-tools/netsync/internal/resources/acl"
	_ "github.com/incus-tools/netsync/internal/resources/forward"
	_ "github.com/incus-tools/netsync/internal/resources/loadbalancer"
	_ "github.com/incus-tools/netsync/internal/resources/peer"
	_ "github.com/incus-tools/netsync/internal/resources/zone"
)
