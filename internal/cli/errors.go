package cli

import "fmt"

type notFoundError struct {
	link string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("listing not found: %s", e.link)
}

func errNotFound(link string) error {
	return notFoundError{link: link}
}
