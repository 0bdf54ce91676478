package nft

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/mr-tron/base58"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
	"github.com/simp-lee/soundmint/internal/testutil"
)

func itoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }

var validSig = base58Sig(7)

func base58Sig(b byte) string {
	return base58.Encode(bytes.Repeat([]byte{b}, signatureSize))
}

func TestExplorer_TxURL(t *testing.T) {
	tests := []struct {
		explorer Explorer
		want     string
	}{
		{Explorer{}, ""},
		{Explorer{BaseURL: "https://solscan.io/"}, "https://solscan.io/tx/abc"},
		{Explorer{BaseURL: "https://solscan.io", Cluster: "devnet"}, "https://solscan.io/tx/abc?cluster=devnet"},
		{Explorer{BaseURL: "https://solscan.io", Cluster: "mainnet-beta"}, "https://solscan.io/tx/abc"},
	}
	for _, tt := range tests {
		if got := tt.explorer.TxURL("abc"); got != tt.want {
			t.Errorf("%+v.TxURL = %q; want %q", tt.explorer, got, tt.want)
		}
	}
}

// countingRepo counts GetNft calls to observe the detail cache.
type countingRepo struct {
	domain.NftRepository
	gets int
}

func (r *countingRepo) GetNft(ctx context.Context, id uint) (*domain.Nft, error) {
	r.gets++
	return r.NftRepository.GetNft(ctx, id)
}

func TestGetNft_LikesAndCache(t *testing.T) {
	db := testutil.OpenDB(t)
	m := seedMarket(t, db)
	fan := testutil.CreateUser(t, db, "fan", domain.RoleUser)
	repo := &countingRepo{NftRepository: NewNftRepository(db)}
	svc := NewNftService(repo, pkg.NewCache[uint, domain.Nft](16, time.Minute), Explorer{})
	ctx := context.Background()
	id := m.nfts[0].ID

	if err := svc.Like(ctx, fan.ID, id); err != nil {
		t.Fatalf("Like: %v", err)
	}

	anon, err := svc.GetNft(ctx, id, 0)
	if err != nil {
		t.Fatalf("GetNft anonymous: %v", err)
	}
	if anon.Likes != 1 || anon.Liked {
		t.Errorf("anonymous detail: likes=%d liked=%v; want 1, false", anon.Likes, anon.Liked)
	}

	mine, err := svc.GetNft(ctx, id, fan.ID)
	if err != nil {
		t.Fatalf("GetNft viewer: %v", err)
	}
	if !mine.Liked {
		t.Error("viewer detail: liked = false; want true")
	}
	if repo.gets != 1 {
		t.Errorf("GetNft repo calls = %d; want 1 with cache", repo.gets)
	}
}

func TestLike_UnknownNft(t *testing.T) {
	db := testutil.OpenDB(t)
	fan := testutil.CreateUser(t, db, "fan", domain.RoleUser)
	svc := NewNftService(NewNftRepository(db), nil, Explorer{})

	if err := svc.Like(context.Background(), fan.ID, 999); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRecordPurchase_InvalidatesCacheAndLinksExplorer(t *testing.T) {
	db := testutil.OpenDB(t)
	m := seedMarket(t, db)
	buyer := testutil.CreateUser(t, db, "buyer", domain.RoleUser)
	svc := NewNftService(NewNftRepository(db), pkg.NewCache[uint, domain.Nft](16, time.Minute),
		Explorer{BaseURL: "https://solscan.io", Cluster: "devnet"})
	ctx := context.Background()
	id := m.nfts[0].ID

	before, _ := svc.GetNft(ctx, id, 0)
	if before.Minted != 0 {
		t.Fatalf("Minted = %d; want 0", before.Minted)
	}

	p, err := svc.RecordPurchase(ctx, buyer.ID, id, " "+validSig+" ")
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if p.ExplorerURL != "https://solscan.io/tx/"+validSig+"?cluster=devnet" {
		t.Errorf("ExplorerURL = %q", p.ExplorerURL)
	}

	after, _ := svc.GetNft(ctx, id, 0)
	if after.Minted != 1 {
		t.Errorf("Minted = %d after purchase; want 1 (stale cache?)", after.Minted)
	}
}

func TestRecordPurchase_RejectsMalformedSignature(t *testing.T) {
	svc := NewNftService(nil, nil, Explorer{})

	for _, sig := range []string{"", "not-base58-0OIl", base58.Encode([]byte("short"))} {
		if _, err := svc.RecordPurchase(context.Background(), 1, 1, sig); !domain.IsValidation(err) {
			t.Errorf("sig %q: expected validation error, got %v", sig, err)
		}
	}
}
