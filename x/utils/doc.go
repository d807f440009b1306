/*
Package utils provides decorators shared by every application stack: panic
recovery, per transaction logging and savepoints that roll back the writes
of a failed call.
*/
package utils
