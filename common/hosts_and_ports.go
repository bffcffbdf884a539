package common

import (
	"fmt"
	"os"
	"strconv"
)

const defaultServerPort = 8844

func GetServerPort() int {
	port := os.Getenv("STUDIO_SERVER_PORT")
	if port == "" {
		return defaultServerPort
	}

	intPort, err := strconv.Atoi(port)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse studio api server port: %s", port))
	}
	return intPort
}
