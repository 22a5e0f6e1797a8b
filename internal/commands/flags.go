package commands

import (
	"strconv"
)

// optString is a string flag that remembers whether it was given, so
// partial updates can tell "unset" from "set to empty".
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// optBool is the boolean counterpart of optString.
// It accepts --flag and --flag=false.
type optBool struct {
	value bool
	set   bool
}

func (o *optBool) String() string { return strconv.FormatBool(o.value) }

func (o *optBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func (o *optBool) IsBoolFlag() bool { return true }

func (o *optBool) ptr() *bool {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
