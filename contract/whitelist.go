package contract

import "acdm_platform/sdk"

// isWhitelisted checks that proof leads from addr's leaf to the configured root.
func isWhitelisted(cfg *Config, addr sdk.Address, proof []sdk.Hash) bool {
	return sdk.VerifyProof(proof, cfg.WhitelistRoot, sdk.LeafOf(addr))
}

// SetWhitelist replaces the Merkle root stakers prove membership against.
// Example payload: SetWhitelist(env, sdk.NewWhitelistTree(addrs).Root())
func (p *Platform) SetWhitelist(env sdk.Env, root sdk.Hash) error {
	return p.exec("setWhitelist", env, false, func(c *callCtx) error {
		if err := c.requireRole(RoleConfigurator); err != nil {
			return err
		}
		if err := updateConfig(c.st, func(cfg *Config) error {
			cfg.WhitelistRoot = root
			return nil
		}); err != nil {
			return err
		}
		emitConfigChanged(c, "Whitelist", root.Hex())
		return nil
	})
}

// WhitelistRoot is the current root.
func (p *Platform) WhitelistRoot() (sdk.Hash, error) {
	var root sdk.Hash
	err := p.view(func(st sdk.State) error {
		cfg, err := loadConfig(st)
		if err != nil {
			return err
		}
		root = cfg.WhitelistRoot
		return nil
	})
	return root, err
}
