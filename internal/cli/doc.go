// Package cli wires configuration, storage and services into the cobra
// command tree of the invkeeper binary.
//
// Commands
//
//	import <file> --project <id>   open a foreign inventory file and store it
//	rotate                         change the system password and re-encrypt files
//	list                           show discovered inventory files
//	export <container> <dest>      write an Excel-openable encrypted copy
//	password status                report whether a custom password is set
//	projects add <name>            create a project
//	projects list                  list projects with their file index
//	inventory count <project-id>   count ingested rows of a project
package cli
