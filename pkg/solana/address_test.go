package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"hash"
	"sync"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProgramAddress(t *testing.T) {
	exceededSeed := make([]byte, MaxSeedLength+1)
	maxSeed := make([]byte, MaxSeedLength)

	// The typo here was taken directly from the Solana test case,
	// which was used to derive the expected outputs.
	publicKey, err := base58.Decode("SeedPubey1111111111111111111111111111111111")
	require.NoError(t, err)
	programID, err := base58.Decode("BPFLoader1111111111111111111111111111111111")
	require.NoError(t, err)

	_, err = CreateProgramAddress(programID, exceededSeed)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
	assert.True(t, errors.Is(err, ErrSeedConstraintViolation))
	_, err = CreateProgramAddress(programID, []byte("short seed"), exceededSeed)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)

	_, err = CreateProgramAddress(programID, maxSeed)
	assert.NoError(t, err)

	cases := []struct {
		expected string
		input    [][]byte
	}{
		{
			expected: "3gF2KMe9KiC6FNVBmfg9i267aMPvK37FewCip4eGBFcT",
			input:    [][]byte{{}, {1}},
		},
		{
			expected: "7ytmC1nT1xY4RfxCV2ZgyA7UakC93do5ZdyhdF3EtPj7",
			input:    [][]byte{[]byte("☉")},
		},
		{
			expected: "HwRVBufQ4haG5XSgpspwKtNd3PC9GM9m1196uJW36vds",
			input:    [][]byte{[]byte("Talking"), []byte("Squirrels")},
		},
		{
			expected: "GUs5qLUfsEHkcMB9T38vjr18ypEhRuNWiePW2LoK4E3K",
			input:    [][]byte{publicKey},
		},
	}

	for _, tc := range cases {
		key, err := CreateProgramAddress(programID, tc.input...)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(key))
	}

	a, err := CreateProgramAddress(programID, []byte("Talking"))
	assert.NoError(t, err)
	b, err := CreateProgramAddress(programID, []byte("Talking"), []byte("Squirrels"))
	assert.NoError(t, err)

	assert.NotEqual(t, a, b)
}

type testCtor struct {
	sumResult []byte
}

func (t *testCtor) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func (t *testCtor) Sum(b []byte) []byte {
	return t.sumResult
}

func (t *testCtor) Reset() {
}

func (t *testCtor) Size() int {
	return sha256.New().Size()
}

func (t *testCtor) BlockSize() int {
	return sha256.New().BlockSize()
}

func TestCreateProgramAddress_Invalid(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	programHashCtor = func() hash.Hash {
		return &testCtor{
			sumResult: pub,
		}
	}
	defer func() {
		programHashCtor = sha256.New
	}()

	programID, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, err = CreateProgramAddress(programID, []byte("Lil'"), []byte("Bits"))
	assert.Equal(t, ErrInvalidPublicKey, err)
}

func TestFindProgramAddress(t *testing.T) {
	for i := 0; i < 1000; i++ {
		programID, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		addr, err := FindProgramAddress(programID, []byte("Lil'"), []byte("Bits"))
		require.NoError(t, err)
		assert.False(t, IsOnCurve(addr))
	}
}

func TestFindProgramAddress_Ref(t *testing.T) {
	references := []struct {
		programID string
		expected  string
	}{
		{
			programID: "4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM",
			expected:  "Bn9pAWUXWc5Kd849xTkQcHqiCbHUEizLFn4r5Cf8XYnd",
		},
		{
			programID: "8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh",
			expected:  "oDvUHiiGdMo31xYzjefAzUekWH8EbCKrxgs2FkyTs1S",
		},
		{
			programID: "CiDwVBFgWV9E5MvXWoLgnEgn2hK7rJikbvfWavzAQz3",
			expected:  "B2vBn2bmF9GuaGkebrm8oUqDC34pE6m4bagjNcVE6msv",
		},
		{
			programID: "GcdayuLaLyrdmUu324nahyv33G5poQdLUEZ1nEytDeP",
			expected:  "2mN5Nfq9v1EwTV9FPTHPESZ3XiZce9wi5PQoULFuxvev",
		},
		{
			programID: "LX3EUdRUBUa3TbsYXLEUdj9J3prXkWXvLYSWyYyc2Jj",
			expected:  "9CqF6oTZtW5zSeoLnZRoQmj3s2tXGPqifM1W8Z8LVE1z",
		},
		{
			programID: "QRSsyMWN1yHT9ir42bgNZUNZ4PdEhcSWCrL2AryKpy5",
			expected:  "FwBDYafabYZLDC8FwaDCsLxWkKnaQxKuQv3afDAGiXJ8",
		},
		{
			programID: "UKrXU5bFrTzrqqpZXs8GVDbp4xPweiM65ADXNAy3ddR",
			expected:  "2Y1miPDc3BkHVdNFeFTtRkiw8nbptrBqboJkbqxk5SFt",
		},
		{
			programID: "YEGAxog9gxiGXxo538aAQxq55XAebpFfwU72ZUxmSHm",
			expected:  "5jeaj2d8T2hjU63h2chjtSnuUmjti6qZK7oi6jwTspoo",
		},
		{
			programID: "c8fpTXm3XTRgE5maYQ24Li4L65wMYvAFomzXknxVEx7",
			expected:  "6brHYNpseuh39WW3Md5WxTyw12kqumR4tTyZqzkyPWZP",
		},
		{
			programID: "g35TxFqwMx95vCk63fTxGTHb6ei4W24qg5t2x6xD3cT",
			expected:  "ESVKwnyn9DEkNcR5ZnHFbMK66nCArc9dChFCULstzLy5",
		},
		{
			programID: "jwV7SyvqCSrVcKibYvurCCWr7DUmT7yRYPmY9QwvrGo",
			expected:  "69BytoSYkhMovVk8gfGUwhf9P8HSnrcYhaoWY2dgmrPE",
		},
		{
			programID: "oqtkwi1j2wZuJSh74CMk7wk77nFUQDt1Qhf3Liweew9",
			expected:  "EfwG5mLknsUXPLHkUp1doxgN1W4Azr3gkZ1Zu6w6AxdF",
		},
		{
			programID: "skJQSS6csSHJzZfcZToe3gyN8M2BMKnbH1YYY2wNTbV",
			expected:  "Cw2qpvCaoPGxEJypW7rW5obTKSTLpCDRN7TgrrVugkfC",
		},
		{
			programID: "wei3wABWhvzigge84jFXySCd8untJRhB9KS3jLw6GFq",
			expected:  "8jztcAvddJNqK1ZjwcRkfWYAkfJW7dBbwoxZt7HSNg1G",
		},
		{
			programID: "21Z7hRtGQYRi8NocdZzhRuBRt9UZbFXbm1dKYvevp4vB",
			expected:  "9PPbRbNP3rqwzk16r7NDBzk1YDfo9EpWDWSqCYLn5eaF",
		},
		{
			programID: "25TXLvcMJNvRY4vb95G9Kpvf9A3LJCdWLswD47xvXsaX",
			expected:  "2rXxCqDNwia2f245koA11w7NoyNhNH4PwhSVLwpeBVRf",
		},
		{
			programID: "29MvzRLSCDR8wm3ZeaXbDkftQAc719jQvkF6ZKGvFgEs",
			expected:  "8habU8xKFCDeJNg9No6prtCY1Lq2px5bqWEyudy1SScW",
		},
		{
			programID: "2DGLdv4X63urMTAYA5o37gR7fBAsi6qKWcYz4WauyUuD",
			expected:  "7CPuXK4rdxhNqPUtTjvJ2peNEgVbBCzPV89SVK8boWai",
		},
		{
			programID: "2HAkHQnbytQZm9HWfb4V1cALvBjeR3wE6UrsZhtuhHZZ",
			expected:  "5U8dYpWb2W1s3ptdNhJJAkyf2JaRUxFAzVEnZmSP2t8X",
		},
		{
			programID: "2M59vuWgsiuHAqQVB6KvuXuaBCJR8138gMAm4uCuR6Du",
			expected:  "E5dLtHAM353EPnHyuZ32sKREn26VW4Y8bzb2KQJTBHQh",
		},
	}

	for _, r := range references {
		programID, err := base58.Decode(r.programID)
		require.NoError(t, err)
		expected, err := base58.Decode(r.expected)
		require.NoError(t, err)

		actual, err := FindProgramAddress(programID, []byte("Lil'"), []byte("Bits"))
		assert.NoError(t, err)
		assert.EqualValues(t, expected, actual)
	}
}

func TestDeriveAddress_Vectors(t *testing.T) {
	for _, tc := range []struct {
		program string
		seeds   [][]byte
		address string
		bump    uint8
	}{
		{
			program: "11111111111111111111111111111111",
			seeds:   [][]byte{[]byte("test")},
			address: "H68a6HmNocBWoDtYo2PDxX3ciRHLUosfsnH9b2r7xNPJ",
			bump:    255,
		},
		{
			program: "BPFLoaderUpgradeab1e11111111111111111111111",
			seeds:   [][]byte{[]byte("program")},
			address: "Sk7mt9dxmPzDLBHMSS5BmNL9VgBBdUiFRvRHeHWnR4p",
			bump:    251,
		},
		{
			program: "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi",
			seeds:   [][]byte{[]byte("seed1"), []byte("seed2")},
			address: "EDTSJHd1cFphW6hEBGSdrRXpVuWaSzXQiaCM5WHv3dSP",
			bump:    254,
		},
		{
			program: "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi",
			seeds:   [][]byte{[]byte("seed2"), []byte("seed1")},
			address: "ATypsCwEXVrFLpbsocEF7u1KMwfX5afuoD197XKCtJW",
			bump:    253,
		},
		{
			program: "3qbR1eZRqXUWroWKKYhbDmR3FfqTHfqSU8zZSxtANzYh",
			seeds:   [][]byte{[]byte("long_seed_value_to_test"), {1, 2, 3, 4, 5}},
			address: "BGb1W16w5ALM5hATuofQYVisLxoqJdNovSTUuNmqtsU9",
			bump:    254,
		},
		{
			program: "cGfHiC6Kgg3FpFZvgwGcswsCRtp4aBP2fzuXRQPizuN",
			address: "5mVodffCtjtoGuqpprr3BwGzu7nfCZ8NosQK9PsNY9xD",
			bump:    255,
		},
	} {
		program, err := base58.Decode(tc.program)
		require.NoError(t, err)
		program = append(make([]byte, ed25519.PublicKeySize-len(program)), program...)

		pda, err := DeriveAddress(program, tc.seeds...)
		require.NoError(t, err)
		assert.Equal(t, tc.address, base58.Encode(pda.Address))
		assert.Equal(t, tc.bump, pda.Bump)
		assert.False(t, IsOnCurve(pda.Address))

		addr, bump, err := FindProgramAddressAndBump(program, tc.seeds...)
		require.NoError(t, err)
		assert.EqualValues(t, pda.Address, addr)
		assert.Equal(t, pda.Bump, bump)

		// The bump seed reproduces the address directly
		direct, err := CreateProgramAddress(program, append(tc.seeds, []byte{pda.Bump})...)
		require.NoError(t, err)
		assert.EqualValues(t, pda.Address, direct)
	}
}

func TestDeriveAddress_Deterministic(t *testing.T) {
	program := bytes.Repeat([]byte{3}, 32)

	first, err := DeriveAddress(program, []byte("a"), []byte("b"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			other, err := DeriveAddress(program, []byte("a"), []byte("b"))
			assert.NoError(t, err)
			assert.Equal(t, first, other)
		}()
	}
	wg.Wait()

	swapped, err := DeriveAddress(program, []byte("b"), []byte("a"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Address, swapped.Address)

	duplicated, err := DeriveAddress(program, []byte("a"), []byte("a"))
	require.NoError(t, err)
	assert.False(t, IsOnCurve(duplicated.Address))
}

func TestDeriveAddress_SeedBoundaries(t *testing.T) {
	program := bytes.Repeat([]byte{9}, 32)

	seeds := make([][]byte, MaxSeeds)
	for i := range seeds {
		seeds[i] = bytes.Repeat([]byte{byte(i)}, MaxSeedLength)
	}

	pda, err := DeriveAddress(program, seeds...)
	require.NoError(t, err)
	assert.Len(t, pda.Address, ed25519.PublicKeySize)

	_, err = DeriveAddress(program, append(seeds, []byte{1})...)
	assert.Equal(t, ErrTooManySeeds, err)
	assert.True(t, errors.Is(err, ErrSeedConstraintViolation))

	_, err = DeriveAddress(program, []byte("ok"), make([]byte, MaxSeedLength+1))
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
	assert.True(t, errors.Is(err, ErrSeedConstraintViolation))

	_, err = DeriveAddress(program[:31], []byte("ok"))
	assert.Equal(t, ErrInvalidProgramKey, err)
}

func TestDeriveAddress_Exhausted(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	programHashCtor = func() hash.Hash {
		return &testCtor{
			sumResult: pub,
		}
	}
	defer func() {
		programHashCtor = sha256.New
	}()

	pda, err := DeriveAddress(bytes.Repeat([]byte{1}, 32), []byte("seed"))
	assert.Equal(t, ErrNoValidAddress, err)
	assert.Nil(t, pda.Address)

	_, _, err = FindProgramAddressAndBump(bytes.Repeat([]byte{1}, 32), []byte("seed"))
	assert.Equal(t, ErrNoValidAddress, err)
}

func TestDeriveAddress_Allocations(t *testing.T) {
	decode := func(s string) []byte {
		b, err := base58.Decode(s)
		require.NoError(t, err)
		return b
	}

	// Found on the first candidate, bump 255.
	ataProgram := decode("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	ataSeeds := [][]byte{
		decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM"),
		decode("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"),
		decode("8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh"),
	}
	pda, err := DeriveAddress(ataProgram, ataSeeds...)
	require.NoError(t, err)
	require.EqualValues(t, 255, pda.Bump)

	// Found on the fifth candidate, bump 251.
	program := decode("BPFLoaderUpgradeab1e11111111111111111111111")
	seeds := [][]byte{[]byte("program")}
	pda, err = DeriveAddress(program, seeds...)
	require.NoError(t, err)
	require.EqualValues(t, 251, pda.Bump)

	first := testing.AllocsPerRun(100, func() {
		_, _ = DeriveAddress(ataProgram, ataSeeds...)
	})
	fifth := testing.AllocsPerRun(100, func() {
		_, _ = DeriveAddress(program, seeds...)
	})

	// The hasher, digest, bump buffer and returned address are allocated
	// once per call, however many candidates are tried.
	assert.Equal(t, first, fifth)
	assert.LessOrEqual(t, fifth, float64(4))
}

func TestCreateWithSeed(t *testing.T) {
	token, err := base58.Decode("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	require.NoError(t, err)
	base := bytes.Repeat([]byte{1}, 32)

	actual, err := CreateWithSeed(base, "seed", token)
	require.NoError(t, err)
	assert.Equal(t, "E9dzp8EUwpo9MXFxfc4GNjrb9PdFcunbLpcw1uq6GD7D", base58.Encode(actual))

	_, err = CreateWithSeed(base, string(make([]byte, MaxSeedLength+1)), token)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)

	illegal := append(make([]byte, 32-len(pdaMarker)), pdaMarker...)
	_, err = CreateWithSeed(base, "seed", illegal)
	assert.Equal(t, ErrIllegalOwner, err)
}

func TestIsOnCurve(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	assert.True(t, IsOnCurve(pub))
	assert.False(t, IsOnCurve(pub[:31]))

	addr, err := FindProgramAddress(pub, []byte("off"))
	require.NoError(t, err)
	assert.False(t, IsOnCurve(addr))
}
