// Package testutil provides widget fixtures shared by the server's tests.
package testutil
