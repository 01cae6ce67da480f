package postgres

import (
	"github.com/bob-rietveld/unheard-v3/internal/enrichment"
	"github.com/bob-rietveld/unheard-v3/internal/integration"
	"github.com/bob-rietveld/unheard-v3/internal/record"
	"github.com/bob-rietveld/unheard-v3/internal/segment"
	syncpkg "github.com/bob-rietveld/unheard-v3/internal/sync"
	"github.com/bob-rietveld/unheard-v3/internal/user"
)

// Compile-time checks that each repository satisfies the interfaces its
// consumers declare.
var (
	_ enrichment.JobRepoInterface       = (*JobRepository)(nil)
	_ enrichment.RecordRepoInterface    = (*RecordRepository)(nil)
	_ enrichment.SegmentReaderInterface = (*SegmentRepository)(nil)
	_ record.RepoInterface              = (*RecordRepository)(nil)
	_ segment.RepoInterface             = (*SegmentRepository)(nil)
	_ segment.RecordReaderInterface     = (*RecordRepository)(nil)
	_ integration.RepoInterface         = (*IntegrationRepository)(nil)
	_ syncpkg.IntegrationRepoInterface  = (*IntegrationRepository)(nil)
	_ syncpkg.RecordWriterInterface     = (*RecordRepository)(nil)
	_ user.RepoInterface                = (*UserRepository)(nil)
)
