package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlag binds a registered flag to a viper key. A failed lookup is a
// programmer error, so it panics during init rather than surfacing at run
// time.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	flag := flags.Lookup(name)
	if flag == nil {
		panic(fmt.Sprintf("binding %s: flag %q is not registered", key, name))
	}
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding %s: %v", key, err))
	}
}
