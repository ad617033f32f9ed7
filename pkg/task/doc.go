/*
Package task implements the finite-domain planning task model used by Thicket.

Tasks are authored as documents (YAML or JSON) that name variables, values and
operators, then compiled into an indexed Task that implements ports.Task.
Compilation validates the whole document and reports every problem at once
through an AggregateError.

# Document Shape

	name: switch
	variables:
	  - name: light
	    values: [off, on]
	init: {light: off}
	goal: {light: on}
	operators:
	  - name: flip
	    cost: 1
	    pre: {light: off}
	    eff:
	      - set: {light: on}

Derived variables are set by axioms, evaluated layer by layer after each
operator application.
*/
package task
