// Package plugin locates the modules a script loads with "require".
//
// A module is either registered by Go code with [macro.RegisterModule] or
// described by a YAML file named after it:
//
//	# greet.yaml
//	init:
//	  - scoreboard objectives add greeted dummy
//	directives:
//	  hello:
//	    types: [string]
//	    command:
//	      - tellraw ${arg1} "hello"
//	  everyone:
//	    block:
//	      prefix: execute as @a at @s run
//	      anonymous: true
//	      begin:
//	        - scoreboard players add @s greeted 1
//
// Template lines are emitted like script text. ${words} expands to the
// statement's arguments and ${arg1}, ${arg2}, ... to each argument, converted
// according to types. Inside a block, the same names are visible to the
// nested statements, and ${self} names the anonymous function when the block
// has one.
//
// YAML modules are searched for in the directory of the requiring script,
// then in the loader's configured directories, then in the directories listed
// in the MCMACROS_PATH environment variable.
package plugin
