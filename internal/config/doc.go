// Package config provides configuration types for the enigma session layer.
package config
