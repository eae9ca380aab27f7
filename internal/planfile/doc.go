// Package planfile loads execution plans from HCL files.
//
// A plan file declares one or more plan blocks, each holding ordered step
// blocks with an action, a target (logical role plus candidate selectors),
// an optional value, and dependency ids:
//
//	plan "checkout" {
//	  page = "https://shop.example/checkout"
//
//	  step "open" {
//	    action = "navigate"
//	    value  = "https://shop.example/checkout"
//	  }
//
//	  step "submit" {
//	    action     = "click"
//	    role       = "submit button"
//	    selectors  = ["#submit", "button[type='submit']"]
//	    depends_on = ["open"]
//	  }
//	}
//
// Loading validates structurally through plan.Build, so unknown depends_on
// ids, duplicate ids, and cycles are rejected with the offending identities
// before any execution begins.
package planfile
