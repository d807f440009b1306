/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns one configuration object, stored under its package name.
A configuration can be loaded from the genesis file (see Initializer) and
later changed by its owner with an update message processed by
UpdateConfigurationHandler. Only non zero fields of the patch are applied.
*/
package gconf
