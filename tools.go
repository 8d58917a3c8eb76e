// +build ignore

package tools

import (
	// build/test tools
	_ "github.com/golang/mock/mockgen"
)
