// Package config loads declarative YAML descriptions of component networks
// and builds them onto a dispatcher.
//
// A description lists skeleton instances, port connections, and operation
// bindings; the behavior functions it refers to by name (mapping functions,
// sequencer programs) are registered in Go code through a Registry. Network
// payloads are float64.
//
//	components:
//	  - name: gain
//	    kind: feedthrough
//	    map: double
//	  - name: watch
//	    kind: trigger
//	    map: negate
//	    period: 10ms
//	connections:
//	  - from: gain/out
//	    to: watch/in
//	bindings:
//	  - required: watch/call
//	    provided: console/print
package config
