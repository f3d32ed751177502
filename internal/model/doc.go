// Package model defines the tracking records exchanged with the patch tracking server.
package model
