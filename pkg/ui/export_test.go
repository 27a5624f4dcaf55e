package ui

// SetConsolePath points c at another reply source
func SetConsolePath(c *Console, path string) {
	c.path = path
}
