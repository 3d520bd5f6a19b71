// Package gitsource validates MASO documents tracked in a Git repository.
//
// A Repository clones the configured branch (HTTPS, SSH or a local path)
// and lists the documents under source.path. A Poller pulls on an
// interval and feeds changed documents to a workspace with the git
// trigger, closing documents the pull deleted.
//
// Authentication methods:
//
//   - none: public repositories and local paths
//   - token: HTTPS basic auth with the token as password
//   - ssh: private key file, which must not be readable by group or others
//
// Basic usage:
//
//	repo, err := gitsource.NewRepository(cfg.Source, cfg.Files, logger)
//	if err != nil {
//	    return err
//	}
//	defer repo.Close()
//	if err := repo.Clone(ctx); err != nil {
//	    return err
//	}
//	poller := gitsource.NewPoller(repo, ws, cfg.Source.PollInterval, logger)
//	if err := poller.Start(ctx); err != nil {
//	    return err
//	}
//	defer poller.Stop()
package gitsource
