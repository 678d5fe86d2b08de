package main

// Default command-line flag values
const (
	defaultFrom = 0.0
	defaultTo   = 1.0
	defaultStep = 0.125
	maxRows     = 10000 // Upper bound on sweep rows
)

// Table layout
const (
	tabMinWidth = 0
	tabWidth    = 8
	tabPadding  = 2
	tabPadChar  = ' '
)
