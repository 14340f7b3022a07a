package board

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/versjoost/tube-timing/pkg/tfl"
	"github.com/versjoost/tube-timing/pkg/util"
)

func runEnv(c *cli.Context) error {
	env := util.GetEnvironmentVariables()

	apiKey := strings.TrimSpace(env["TFL_API_KEY"])
	if apiKey == "" {
		fmt.Println("TFL_API_KEY is not set.")
		fmt.Println("Run: export TFL_API_KEY=\"your_key_here\"")
		return cli.Exit("", 1)
	}

	fmt.Printf("TFL_API_KEY is set (%s).\n", tfl.MaskKey(apiKey))
	return nil
}
