// Package scenario reads and writes the files the reducekit CLI runs: a user
// collection plus an ordered action list, in YAML or JSON.
//
//	users:
//	  - {id: 1, name: Alice, active: true, roles: [admin]}
//	actions:
//	  - {type: TOGGLE_ACTIVE, id: 1}
//	  - {type: ADD_ROLE, role: editor}
//
// An action without an id applies to every user.
package scenario
