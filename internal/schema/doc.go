// Package schema loads codec schema files (YAML or TOML), checks them and
// compiles each record into plans.
//
// A schema looks like:
//
//	version: "1"
//	package: models
//	records:
//	  - name: Foo
//	    access: public
//	    fields:
//	      - name: bar
//	        type: int
//	      - name: baz
//	        type: "*string"
//	        key: booz
//	      - name: qux
//	        type: "[]Qux"
//	        default: "nil"
//
// Validate reports every problem at once; Compile refuses to plan a schema
// with errors.
package schema
