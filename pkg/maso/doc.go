// Package maso validates MASO workload description documents.
//
// A MASO document is a JSON file (conventionally with a .maso extension)
// that describes a set of processes for a scheduling simulator. The
// processes block declares a mode that selects the element schema:
// regular elements carry arrival and service times, burst elements carry
// threads made of CPU and I/O bursts.
//
// # Architecture
//
// The package is organized into subpackages:
//
// - ast: raw value helpers, field paths, and typed element views
// - document: parsing, the line index, and position lookup
// - diagnostic: violations, diagnostics, severities, and suggestions
// - validator: the structural pass and the mode-specific element passes
//
// # Basic Usage
//
//	diags, err := maso.ValidateFile("workloads/batch.maso")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range diags {
//	    fmt.Println(d)
//	}
//
// # Document Structure
//
//	{
//	  "metadata": {"name": "batch", "version": "1.0.0", "description": "Nightly batch"},
//	  "processes": {
//	    "mode": "burst",
//	    "elements": [
//	      {"id": "p1", "arrival_time": 0, "enabled": true, "threads": [
//	        {"id": "t1", "enabled": true, "bursts": [
//	          {"type": "cpu", "duration": 4},
//	          {"type": "io", "duration": 2}
//	        ]}
//	      ]}
//	    ]
//	  }
//	}
//
// # Diagnostics
//
// Text that is not valid JSON yields exactly one diagnostic covering the
// whole document. Otherwise every violation found is reported, in document
// order, each anchored from the offending key to the end of its line:
//
//	4:5: error: Invalid mode: typo. Must be one of: regular, burst
package maso
