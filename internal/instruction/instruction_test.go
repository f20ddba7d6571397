package instruction

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/domain"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestDecode_Encoded(t *testing.T) {
	tests := []struct {
		name string
		ins  Instruction
	}{
		{name: "create asset pool", ins: CreateAssetPool{Title: "MythicCrest", Symbol: "EPIC", URI: "https://biodex.example/epic.json"}},
		{name: "regular", ins: IssueRegularCard{RarityTag: domain.RarityFirstNewSpecies, SubjectName: "Sunflower", IsNewSubject: true}},
		{name: "quiz", ins: IssueQuizCard{RarityTag: domain.RarityKnowledge, SubjectName: "Rose", Winner: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.ins)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.ins, decoded)
		})
	}
}

func TestDecode_WireLayout(t *testing.T) {
	data, err := Encode(IssueQuizCard{RarityTag: domain.RarityMastery, SubjectName: "Fern", Winner: true})
	require.NoError(t, err)

	expected := []byte{TagIssueQuizCard, 3, 4, 0, 0, 0, 'F', 'e', 'r', 'n', 1}
	assert.Equal(t, expected, data)
}

func TestDecode_CombinedForm(t *testing.T) {
	data, err := EncodeIssueCard(domain.RarityEpic, "Sunflower", boolPtr(false), nil)
	require.NoError(t, err)
	ins, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, IssueRegularCard{RarityTag: domain.RarityEpic, SubjectName: "Sunflower"}, ins)
	assert.Equal(t, OpIssueRegularCard, ins.Operation())

	data, err = EncodeIssueCard(domain.RarityMastery, "Sunflower", nil, boolPtr(true))
	require.NoError(t, err)
	ins, err = Decode(data)
	require.NoError(t, err)
	assert.Equal(t, IssueQuizCard{RarityTag: domain.RarityMastery, SubjectName: "Sunflower", Winner: true}, ins)
}

func TestDecode_Malformed(t *testing.T) {
	valid, err := Encode(IssueRegularCard{RarityTag: domain.RarityEpic, SubjectName: "Sunflower"})
	require.NoError(t, err)

	both, err := EncodeIssueCard(domain.RarityEpic, "Sunflower", boolPtr(true), boolPtr(true))
	require.NoError(t, err)
	neither, err := EncodeIssueCard(domain.RarityEpic, "Sunflower", nil, nil)
	require.NoError(t, err)

	encode := func(ins Instruction) []byte {
		data, err := Encode(ins)
		require.NoError(t, err)
		return data
	}

	badBool := append([]byte{}, valid...)
	badBool[len(badBool)-1] = 2

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "unknown variant", data: []byte{9}},
		{name: "truncated", data: valid[:len(valid)-1]},
		{name: "trailing bytes", data: append(append([]byte{}, valid...), 0)},
		{name: "string length past end", data: []byte{TagIssueRegularCard, 2, 0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "invalid bool", data: badBool},
		{name: "both path flags", data: both},
		{name: "neither path flag", data: neither},
		{name: "unknown rarity", data: []byte{TagIssueRegularCard, 7, 1, 0, 0, 0, 'x', 0}},
		{name: "quiz tag on regular path", data: encode(IssueRegularCard{RarityTag: domain.RarityMastery, SubjectName: "Fern"})},
		{name: "regular tag on quiz path", data: encode(IssueQuizCard{RarityTag: domain.RarityCommon, SubjectName: "Fern"})},
		{name: "empty subject", data: encode(IssueRegularCard{RarityTag: domain.RarityEpic})},
		{name: "long subject", data: encode(IssueRegularCard{RarityTag: domain.RarityEpic, SubjectName: strings.Repeat("a", 51)})},
		{name: "empty pool title", data: encode(CreateAssetPool{Symbol: "X"})},
		{name: "long pool symbol", data: encode(CreateAssetPool{Title: "T", Symbol: strings.Repeat("S", 11)})},
		{name: "oversized", data: bytes.Repeat([]byte{0}, MAX_INSTRUCTION_SIZE+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.True(t, errors.Is(err, domain.ErrMalformedInstruction), "got %v", err)
		})
	}
}

func testKeys(n int) []common.PublicKey {
	keys := make([]common.PublicKey, n)
	for i := range keys {
		keys[i] = common.PublicKeyFromBytes(bytes.Repeat([]byte{byte(i + 1)}, 32))
	}
	return keys
}

func TestParseIssueAccounts(t *testing.T) {
	assert.Equal(t, 18, IssueAccountCount(domain.PathRegular))
	assert.Equal(t, 12, IssueAccountCount(domain.PathQuiz))

	keys := testKeys(18)
	accounts, err := ParseIssueAccounts(domain.PathRegular, keys)
	require.NoError(t, err)
	assert.Equal(t, keys[0], accounts.Holder)
	assert.Equal(t, keys[1:6], accounts.Pools)
	assert.Equal(t, keys[6], accounts.MintAuthority)
	assert.Equal(t, keys[7:12], accounts.Receiving)
	assert.Equal(t, keys[12], accounts.Payer)
	assert.Equal(t, keys[16], accounts.Ownership)
	assert.Equal(t, keys[17], accounts.Counter)
	assert.Equal(t, keys, accounts.List())

	quiz, err := ParseIssueAccounts(domain.PathQuiz, keys[:12])
	require.NoError(t, err)
	assert.Equal(t, keys[3], quiz.MintAuthority)
	assert.Equal(t, keys[:12], quiz.List())

	_, err = ParseIssueAccounts(domain.PathQuiz, keys)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestParsePoolAccounts(t *testing.T) {
	keys := testKeys(6)
	accounts, err := ParsePoolAccounts(keys)
	require.NoError(t, err)
	assert.Equal(t, keys[2], accounts.Payer)
	assert.Equal(t, keys, accounts.List())

	_, err = ParsePoolAccounts(keys[:5])
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestParseAddressList(t *testing.T) {
	keys := testKeys(3)
	parsed, err := ParseAddressList(FormatAddressList(keys))
	require.NoError(t, err)
	assert.Equal(t, keys, parsed)

	_, err = ParseAddressList([]string{keys[0].ToBase58(), "0OIl"})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	assert.ErrorContains(t, err, "account 1")
}
