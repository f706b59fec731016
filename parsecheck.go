package main

import (
	"log"

	"github.com/reclaimers/halo5_tag_browser/batch"
	"github.com/reclaimers/halo5_tag_browser/vfs"
)

// parseCheck decodes every tag file in the directory and reports the
// per-file results. Useful for verifying format assumptions against a
// whole extracted deploy folder.
func parseCheck(root vfs.Directory, session *batch.Session, workers int) {
	outcomes, tally, err := session.Run(root, make(batch.ProcessedSet), workers)
	if err != nil {
		log.Fatal(err)
	}

	for _, out := range outcomes {
		if out.Err != nil {
			log.Printf("E %.48s: %v", out.Name, out.Err)
			continue
		}
		for _, warn := range out.Warnings {
			log.Printf("W %.48s: %s", out.Name, warn)
		}
	}
	log.Printf("%d ok, %d failed, %d skipped", tally.Succeeded, tally.Failed, tally.Skipped)
}
