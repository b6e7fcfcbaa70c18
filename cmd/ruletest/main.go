// Command ruletest prints how messages are classified and where searches
// resolve. Each stdin line yields "intent<TAB>rule<TAB>url".
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"pagechat/intent"
	"pagechat/omnibox"
)

func main() {
	app := &cli.App{
		Name:  "ruletest",
		Usage: "classify and resolve messages read from stdin",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rules", Usage: "list the classifier and resolver tables and exit"},
			&cli.StringFlag{Name: "fallback", Usage: "search template for unmatched queries (%s is the term)"},
		},
		Action: func(c *cli.Context) error {
			r := omnibox.NewResolver(c.String("fallback"))
			if c.Bool("rules") {
				listRules(c.App.Writer, r)
				return nil
			}
			return run(os.Stdin, c.App.Writer, r)
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run classifies each non-blank line of in. Lines starting with # are
// skipped so case files can carry comments.
func run(in io.Reader, out io.Writer, r *omnibox.Resolver) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintln(out, classify(r, line))
	}
	return sc.Err()
}

func classify(r *omnibox.Resolver, text string) string {
	cat, rule := intent.Trace(text)
	url := "-"
	if cat == intent.Search {
		res := r.Resolve(text)
		rule += "/" + res.Rule
		url = res.URL
	}
	return fmt.Sprintf("%s\t%s\t%s", cat, rule, url)
}

func listRules(w io.Writer, r *omnibox.Resolver) {
	fmt.Fprintln(w, "=== Intent rules ===")
	for i, rule := range intent.Rules() {
		fmt.Fprintf(w, "%2d. %-14s -> %s\n", i+1, rule.Name, rule.Category)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Resolver rules ===")
	for i, rule := range r.Rules() {
		fmt.Fprintf(w, "%2d. %-14s %s\n", i+1, rule.Name, strings.Join(rule.Keywords, ", "))
	}
}
